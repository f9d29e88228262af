/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called buckets, and operate on
models within those buckets. A model is a record that knows how to validate
and serialize itself. Each bucket answers lookups by the primary key only;
the key derivation scheme is the business of the extension owning the
bucket.
*/
package orm
