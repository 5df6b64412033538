// Package timezone pins every wall-clock computation to the salon's zone, read from
// APP_TIMEZONE (IANA names such as "Europe/Moscow"; UTC when unset or unknown).
//
// Reservation dates and times of day carry no zone of their own. They become instants only
// through At, so a 09:30 slot means 09:30 at the salon regardless of where the server runs.
package timezone
