/*
Package x contains interfaces shared by the extension packages that live
below it. Nothing in this package writes state; it only defines how
extensions learn which conditions a transaction has proven.
*/
package x
