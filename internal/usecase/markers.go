package usecase

import (
	"bufio"
	"strings"
)

// Output markers printed by the native deploy tools
const (
	MarkerProgramID  = "Program Id:"
	MarkerSignature  = "Signature:"
	MarkerNewPackage = "Success! New Package:"
)

// markerValue returns the first token following marker in output, or ""
func markerValue(output, marker string) string {
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, marker)
		if idx < 0 {
			continue
		}
		if fields := strings.Fields(line[idx+len(marker):]); len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}
