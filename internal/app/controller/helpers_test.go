package controller

import "strconv"

func uintToString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
