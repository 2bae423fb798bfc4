// internal/master/commands.go
package master

import (
	"context"
	"fmt"
)

// Command names a master API command. The wire framing of each command is
// owned by the link; this package only deals in names and fields.
type Command string

const (
	CmdStatus         Command = "status"
	CmdEepromList     Command = "eeprom_list"
	CmdWriteEeprom    Command = "write_eeprom"
	CmdActivateEeprom Command = "activate_eeprom"
	CmdSetTime        Command = "set_time"
	CmdBasicAction    Command = "basic_action"
	CmdErrorList      Command = "error_list"
	CmdClearErrorList Command = "clear_error_list"
	CmdReset          Command = "reset"
)

// Basic action types.
const (
	BAGroupAction uint8 = 2
	BAStatusLeds  uint8 = 64
)

// ReadBank reads one 256-byte configuration memory bank.
func ReadBank(ctx context.Context, l Executor, bank int) ([]byte, error) {
	out, err := l.Do(ctx, CmdEepromList, Fields{"bank": bank})
	if err != nil {
		return nil, err
	}
	data, err := out.Bytes("data")
	if err != nil {
		return nil, fmt.Errorf("master: eeprom_list bank=%d: %w", bank, err)
	}
	return data, nil
}

// WriteBank writes data (at most one 10-byte chunk) at bank/address.
func WriteBank(ctx context.Context, l Executor, bank, address int, data []byte) error {
	_, err := l.Do(ctx, CmdWriteEeprom, Fields{
		"bank":    bank,
		"address": address,
		"data":    data,
	})
	return err
}

// ActivateEeprom makes the master reload its configuration memory.
func ActivateEeprom(ctx context.Context, l Executor) error {
	_, err := l.Do(ctx, CmdActivateEeprom, Fields{"eep": 0})
	return err
}

// SetStatusLeds switches the master's status LEDs.
func SetStatusLeds(ctx context.Context, l Executor, on bool) error {
	n := 0
	if on {
		n = 1
	}
	_, err := l.Do(ctx, CmdBasicAction, Fields{
		"action_type":   int(BAStatusLeds),
		"action_number": n,
	})
	return err
}

// SoftReset asks the master firmware to reset itself.
func SoftReset(ctx context.Context, l Executor) error {
	_, err := l.Do(ctx, CmdReset, Fields{})
	return err
}

// ModuleErrors is the error counter of one module (O1, I2, ...).
type ModuleErrors struct {
	Module string
	Count  int
}

// ErrorList reads the per-module error counters.
func ErrorList(ctx context.Context, l Executor) ([]ModuleErrors, error) {
	out, err := l.Do(ctx, CmdErrorList, Fields{})
	if err != nil {
		return nil, err
	}

	raw, ok := out["errors"].([]any)
	if !ok {
		return nil, fmt.Errorf("master: error_list: field \"errors\" has type %T", out["errors"])
	}

	list := make([]ModuleErrors, 0, len(raw))
	for i, item := range raw {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("master: error_list: entry %d malformed", i)
		}
		name, _ := pair[0].(string)
		count, err := Fields{"n": pair[1]}.Int("n")
		if err != nil {
			return nil, fmt.Errorf("master: error_list: entry %d: %w", i, err)
		}
		list = append(list, ModuleErrors{Module: name, Count: count})
	}
	return list, nil
}

// ClearErrorList resets the per-module error counters.
func ClearErrorList(ctx context.Context, l Executor) error {
	_, err := l.Do(ctx, CmdClearErrorList, Fields{})
	return err
}
