package llm

import (
	"strings"
)

// Command block markers. A block is a line exactly "$$$ COMMAND", one or
// more lines of shell text, then a line exactly "$$$ END".
const (
	commandStartMarker = "$$$ COMMAND"
	commandEndMarker   = "$$$ END"
)

// filePrefix declares the target path on the first line of a fenced block
const filePrefix = "File:"

// FileOp is one file-creation operation extracted from a step response
type FileOp struct {
	Path    string
	Content string
}

// ExtractCommands scans a step response for command blocks and returns the
// trimmed command text of each, in order of appearance. Unterminated blocks
// and blocks with empty bodies are dropped.
func ExtractCommands(text string) []string {
	var commands []string

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != commandStartMarker {
			continue
		}

		end := -1
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == commandEndMarker {
				end = j
				break
			}
		}
		if end == -1 {
			// No end marker before EOF: not a block
			break
		}

		body := strings.TrimSpace(strings.Join(lines[i+1:end], "\n"))
		if body != "" {
			commands = append(commands, body)
		}
		i = end
	}

	return commands
}

// ExtractFileOps scans a step response for fenced blocks whose first line is
// "File: <relative/path>". The remaining lines are the file content verbatim.
// Fenced blocks without the File: declaration are plain code blocks and are
// ignored. Unterminated fences are dropped.
func ExtractFileOps(text string) []FileOp {
	var ops []FileOp

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		if !isFence(lines[i]) {
			continue
		}

		end := -1
		for j := i + 1; j < len(lines); j++ {
			if isFence(lines[j]) {
				end = j
				break
			}
		}
		if end == -1 {
			break
		}

		body := lines[i+1 : end]
		i = end

		if len(body) == 0 {
			continue
		}
		first := strings.TrimSpace(body[0])
		if !strings.HasPrefix(first, filePrefix) {
			continue
		}
		path := strings.TrimSpace(strings.TrimPrefix(first, filePrefix))
		if path == "" {
			continue
		}

		ops = append(ops, FileOp{
			Path:    path,
			Content: strings.Join(body[1:], "\n"),
		})
	}

	return ops
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}
