/*
Package custody defines the common interfaces that tie the custody engine
together: addresses and conditions, the key-value store contracts, message
and transaction abstractions, and the handler pipeline.

The root package holds only interfaces and small primitive types. Actual
functionality lives in the extension packages under x/, with storage
primitives in store/ and orm/, and shared error codes in errors/.

State transitions are expressed as straight-line synchronous logic. The
environment executes every transaction against a cache-wrapped store that is
either written in full or discarded, so extensions never lock and never
observe a half-applied transition.
*/
package custody
