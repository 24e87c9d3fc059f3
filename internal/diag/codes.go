package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Region / borrow-check diagnostics.
	RegionInfo              Code = 4000
	RegionUnsatisfied       Code = 4001
	RegionBorrowEscape      Code = 4002
	RegionDropCheckOverflow Code = 4003
	RegionValueNotLive      Code = 4004
)

var codeNames = map[Code]string{
	UnknownCode:             "Unknown",
	RegionInfo:              "RegionInfo",
	RegionUnsatisfied:       "RegionUnsatisfied",
	RegionBorrowEscape:      "RegionBorrowEscape",
	RegionDropCheckOverflow: "RegionDropCheckOverflow",
	RegionValueNotLive:      "RegionValueNotLive",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return fmt.Sprintf("%s(%04d)", name, uint16(c))
	}
	return fmt.Sprintf("Code(%04d)", uint16(c))
}
