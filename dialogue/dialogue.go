package dialogue

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ShowKernelSelection lists names on out and reads one choice from in.
// Pressing Enter picks the first entry.
func ShowKernelSelection(in io.Reader, out io.Writer, names []string) (string, error) {
	if len(names) == 0 {
		return "", errors.New("no kernels to choose from")
	}
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "\nAvailable kernels:")
	for i, name := range names {
		fmt.Fprintf(out, "%d. %s\n", i+1, name)
	}

	fmt.Fprintf(out, "\nSelect a kernel (1-%d), or press Enter for %s: ", len(names), names[0])
	input, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return names[0], nil
	}
	// a name typed out in full is accepted too
	for _, name := range names {
		if input == name {
			return name, nil
		}
	}
	idx, err := strconv.Atoi(input)
	if err != nil || idx < 1 || idx > len(names) {
		return "", fmt.Errorf("invalid selection '%s': please enter a number between 1 and %d", input, len(names))
	}
	return names[idx-1], nil
}
