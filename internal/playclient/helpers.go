package playclient

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// readAnswer reads a letter choice and returns its zero-based index.
// ok is false when the line names no listed answer; err is set once input ends.
func readAnswer(reader *bufio.Reader, out io.Writer, optionCount int) (index int, ok bool, err error) {
	if optionCount < 1 {
		return 0, false, nil
	}

	last := rune('A' + optionCount - 1)
	if optionCount == 1 {
		fmt.Fprint(out, "Pick A: ")
	} else {
		fmt.Fprintf(out, "Pick A to %c: ", last)
	}

	line, err := reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return 0, false, err
	}

	choice := []rune(strings.ToUpper(strings.TrimSpace(line)))
	if len(choice) != 1 || choice[0] < 'A' || choice[0] > last {
		return 0, false, nil
	}
	return int(choice[0] - 'A'), true, nil
}

func printCommands(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  quizzes           list quizzes on the server")
	fmt.Fprintln(out, "  play <quiz_id>    start a play")
	fmt.Fprintln(out, "  help              show this list")
	fmt.Fprintln(out, "  exit              leave the player")
}

// confirm keeps asking until the reply is y or n.
func confirm(reader *bufio.Reader, out io.Writer, question string) (bool, error) {
	for {
		fmt.Fprintf(out, "%s [y/n] ", question)
		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, "Type y or n.")
	}
}

func serverError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("cannot reach quiz server at %s", serverURL)
	}
	return err
}
