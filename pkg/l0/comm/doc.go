// Package comm provides the L0 byte transport for the console controller.
package comm

// Three logical channels connect the controller to the outside world:
// the operator console, the train bus carrying outbound commands and the
// sensor feedback line. All of them are consumed through Channel, which
// never blocks in TryReceive/TrySend. Ring absorbs bursts on either side
// and drops overflow silently.
//
// Producer: serial ports, terminal, simulation
// Consumer: control loop
