// Package lua implements ports.Environment on top of an embedded Lua VM (gopher-lua).
//
// Guards are Lua expressions ("x > 0", "logged_in and retries < 3") and actions
// are Lua chunks ("x = x + 1"). Only user-defined globals make up the data space;
// the standard library tables loaded by the VM are hidden.
package lua
