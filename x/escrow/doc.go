/*
Package escrow implements the custody state machine that holds value in
trust between a sender and a recipient.

An escrow is created in Pending state, funded atomically with the record
allocation, and leaves Pending exactly once: released to the recipient
(minus an optional platform fee), claimed by a recipient that was not known
at creation time, reclaimed by the sender, or refunded after the timeout
passed. Terminal records stay in the store so that every late resolver
observes the conflict instead of a missing record; their storage is
reclaimed with an explicit purge.

Records are stored under a key derived from the correlation id and the
sender identity, which makes creation idempotent and the storage location
impossible to squat.
*/
package escrow
