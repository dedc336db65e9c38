package vadelma

// Code is a stable transfer-status identifier decoded from hardware status
// bits. It is a string newtype, comparable, allocation-free, and implements
// error so it can cross generic driver interfaces unchanged.
type Code string

func (c Code) Error() string { return string(c) }

const (
	CodeOK Code = "ok"

	// Slave did not acknowledge its address.
	CodeNoAck Code = "no_ack"

	// Slave held SCL low past the hardware clock-stretch limit.
	CodeClockStretch Code = "clock_stretch_timeout"

	// Transfer ended with bytes still unmoved.
	CodeIncomplete Code = "transfer_incomplete"

	// A status poll exceeded the configured PollBudget.
	CodePollTimeout Code = "poll_timeout"

	// The peripheral window is not mapped (before Open or after Close).
	CodeNotMapped Code = "not_mapped"
)

// Err converts a Code to an error, nil for CodeOK.
func (c Code) Err() error {
	if c == CodeOK {
		return nil
	}
	return c
}
