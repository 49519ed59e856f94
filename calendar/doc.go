/*
Package calendar resolves which GTFS services operate on a given date.

A Resolver combines the weekly recurrence rules of calendar.txt with the
date-specific overrides of calendar_dates.txt. The base set for a date holds
every service whose inclusive start/end range covers the date and whose flag
for the date's weekday is set; removals from the exception layer are applied
before additions, so a service both removed and added on the same date ends
up active.
*/
package calendar
