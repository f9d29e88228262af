/*
Package coin holds the amount type and the exact arithmetic used to account
for custodied value, including the basis point fee split.
*/
package coin
