/*
Package errors implements custody-wide error handling. Each returned error is
built on top of a registered root error, which carries a unique numeric code.
Clients receive the code and a message, never a raw Go error, so the set of
root errors is the public error API of the engine.

Extensions register their own root errors in their init phase, using code
ranges that do not collide with the common codes declared here (escrow takes
1010-1029, compute takes 1030-1039).
*/
package errors
