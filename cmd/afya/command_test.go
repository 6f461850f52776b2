package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		name string
		line string
		want command
	}{
		{name: "Text", line: "where is the clinic?", want: command{kind: cmdText, arg: "where is the clinic?"}},
		{name: "Language with argument", line: "/lang sw", want: command{kind: cmdLanguage, arg: "sw"}},
		{name: "Language toggle", line: "/lang", want: command{kind: cmdLanguage}},
		{name: "Quick action", line: "  /quick   faqs ", want: command{kind: cmdQuick, arg: "faqs"}},
		{name: "Search keeps terms", line: "/search book appointment", want: command{kind: cmdSearch, arg: "book appointment"}},
		{name: "Case insensitive", line: "/QUIT", want: command{kind: cmdQuit}},
		{name: "Unknown", line: "/dance", want: command{kind: cmdUnknown, arg: "/dance"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, parseCommand(tc.line))
		})
	}
}
