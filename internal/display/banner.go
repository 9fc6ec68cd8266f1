package display

import (
	"fmt"
	"io"

	"github.com/backmassage/mkvshrink/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `           _                   _          _       _
 _ __ ___ | | ____   _____| |__  _ __(_)_ __ | | __
| '_ `+"`"+` _ \| |/ /\ \ / / __| '_ \| '__| | '_ \| |/ /
| | | | | |   <  \ V /\__ \ | | | |  | | | | |   <
|_| |_| |_|_|\_\  \_/ |___/_| |_|_|  |_|_| |_|_|\_\
`)
	fmt.Fprintln(w, term.NC)
}
