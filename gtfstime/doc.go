/*
Package gtfstime converts GTFS service-day times to seconds after midnight.

Service-day times use the HH:MM:SS layout but the hour component may exceed
23 for trips that continue past midnight ("25:10:00" is 01:10 on the next
calendar day, still attributed to the previous service day). Values are never
wrapped modulo 86400.
*/
package gtfstime
