/*
Package compute queues confidential computations and records their results.

A submitter hands in an encrypted payload together with the public key and
nonce needed to process it. The payload is opaque: nothing in this package,
or anywhere else in the application, can read the plaintext. A designated
cluster identity later delivers the encrypted result through a callback, or
declares the computation aborted. Consumers read the result through the
controller, which surfaces an aborted computation as an error rather than a
value.
*/
package compute
