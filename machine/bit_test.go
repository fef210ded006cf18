package machine_test

import (
	"testing"

	"github.com/str-workshop/twind/machine"
)

func TestBitNot(t *testing.T) {
	tests := []struct {
		bit  machine.Bit
		want machine.Bit
	}{
		{bit: machine.BitOn, want: machine.BitOff},
		{bit: machine.BitOff, want: machine.BitOn},
		// The negation of an unknown reading is still unknown.
		{bit: machine.BitUnknown, want: machine.BitUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.bit.String(), func(t *testing.T) {
			if got := tt.bit.Not(); got != tt.want {
				t.Errorf("%v.Not() = %v, expected %v", tt.bit, got, tt.want)
			}
		})
	}
}

func TestBitString(t *testing.T) {
	tests := []struct {
		bit  machine.Bit
		want string
	}{
		{bit: machine.BitOn, want: "ON"},
		{bit: machine.BitOff, want: "OFF"},
		{bit: machine.BitUnknown, want: "UNKNOWN"},
		{bit: machine.Bit(42), want: "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.bit.String(); got != tt.want {
			t.Errorf("Bit(%d).String() = %q, expected %q", int(tt.bit), got, tt.want)
		}
	}
}

func TestBitOn(t *testing.T) {
	if !machine.BitOn.On() {
		t.Errorf("BitOn.On() = false, expected true")
	}
	if machine.BitOff.On() {
		t.Errorf("BitOff.On() = true, expected false")
	}
	// An unknown reading must never pass for a confirmed ON.
	if machine.BitUnknown.On() {
		t.Errorf("BitUnknown.On() = true, expected false")
	}
}
