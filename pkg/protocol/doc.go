// Package protocol defines the NAD C338 control protocol: the command
// table, the operators a command accepts, the value domains, and the
// text codec used on the wire.
//
// The protocol is line-oriented UTF-8 text over TCP. An outbound line is
//
//	<command><operator>[<value>]
//
// for example "Main.Volume=-40.0" or "Main.Power+". An inbound line is
// always an assignment:
//
//	<command>=<value>
//
// # Command Table
//
// Every command the device understands has a Descriptor listing its
// supported operators, its value type, and its value domain. The table
// is static; it mirrors the C338 firmware. Commands not in the table are
// rejected by both the encoder and the decoder.
//
// # Value Types
//
// Values are typed by a closed set of variants: boolean, integer, float,
// and string. Booleans are transmitted as "Off"/"On"; the codec converts
// between the textual form and Go bool. Floats keep a trailing ".0" when
// integral because the device dialect expects "-40.0", not "-40".
//
// # Domains
//
// A domain is either a discrete list of textual values (sources, the
// Off/On pair) or a half-open integer range. Range membership requires
// an integral value, so -40.0 is a valid volume and -40.5 is not.
// Main.AnalogGain carries an empty range: the command is reserved by the
// firmware and no assigned value is in domain. Its valueless step and
// query forms still encode.
package protocol
