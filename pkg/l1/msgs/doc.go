// Package msgs provides L1 protocol support and all message schemas.
package msgs

// L1 protocol is communicated between the console controller and remote
// tools (shell, monitor, dashboards). Commands go through the same gate
// as keystrokes typed on the console.
//
// Producer: console controller
// Consumer: remote tools
