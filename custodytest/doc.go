/*
Package custodytest provides mocks and doubles for testing the engine.

Implementations provided by this package are intended to be used with tests.
They cover the interfaces of the root package so that a handler or decorator
can be exercised without standing up the whole application.
*/
package custodytest
