/*
Package gconf provides a toolset for managing an extension configuration.

Extension that is using a configuration is expected to initialize it during
the genesis and keep a single configuration instance under a well known key.
Configuration updates are guarded by the owner address declared on the
currently stored configuration.
*/
package gconf
