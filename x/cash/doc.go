/*
Package cash keeps the ledger of account balances and moves value between
accounts. It is the balance substrate every custody extension disburses
through: an account is debited and another credited inside the same
transaction, so either both happen or neither does.
*/
package cash
