package handlers

import (
	"strconv"
	"strings"
)

// commandArgs returns the whitespace-separated arguments after the command
// word, so "/catchup@mybot 3" yields ["3"].
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return nil
	}
	return fields[1:]
}

// splitPersonArgs separates the trailing hours argument, if any, from the
// names. A trailing token is treated as hours when it parses as an integer.
func splitPersonArgs(args []string) (names []string, window string) {
	if len(args) == 0 {
		return nil, ""
	}
	last := args[len(args)-1]
	if _, err := strconv.Atoi(last); err == nil {
		return args[:len(args)-1], last
	}
	return args, ""
}
