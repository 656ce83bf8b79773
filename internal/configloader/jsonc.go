package configloader

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// jsoncToYAML converts JSON with comments and trailing commas into YAML
// the config decoders accept.
func jsoncToYAML(content []byte) ([]byte, error) {
	var value any
	if err := json.Unmarshal(stripTrailingCommas(stripJSONComments(content)), &value); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("convert json: %w", err)
	}
	return out, nil
}

// stripJSONComments removes // and /* */ comments outside strings.
// Newlines inside line comments survive so error offsets stay close.
func stripJSONComments(content []byte) []byte {
	result := make([]byte, 0, len(content))
	inString := false
	inSingleComment := false
	inMultiComment := false

	for idx := 0; idx < len(content); idx++ {
		char := content[idx]

		if inSingleComment {
			if char == '\n' {
				inSingleComment = false
				result = append(result, char)
			}
			continue
		}

		if inMultiComment {
			if char == '*' && idx+1 < len(content) && content[idx+1] == '/' {
				inMultiComment = false
				idx++
			}
			continue
		}

		if inString {
			result = append(result, char)
			if char == '\\' && idx+1 < len(content) {
				idx++
				result = append(result, content[idx])
			} else if char == '"' {
				inString = false
			}
			continue
		}

		if char == '"' {
			inString = true
			result = append(result, char)
			continue
		}

		if char == '/' && idx+1 < len(content) {
			switch content[idx+1] {
			case '/':
				inSingleComment = true
				idx++
				continue
			case '*':
				inMultiComment = true
				idx++
				continue
			}
		}

		result = append(result, char)
	}

	return result
}

// stripTrailingCommas drops a comma followed only by whitespace and a
// closing bracket or brace. Input must already be comment-free.
func stripTrailingCommas(content []byte) []byte {
	result := make([]byte, 0, len(content))
	inString := false

	for idx := 0; idx < len(content); idx++ {
		char := content[idx]

		if inString {
			result = append(result, char)
			if char == '\\' && idx+1 < len(content) {
				idx++
				result = append(result, content[idx])
			} else if char == '"' {
				inString = false
			}
			continue
		}

		switch char {
		case '"':
			inString = true
		case ',':
			next := idx + 1
			for next < len(content) && isJSONSpace(content[next]) {
				next++
			}
			if next < len(content) && (content[next] == ']' || content[next] == '}') {
				continue
			}
		}

		result = append(result, char)
	}

	return result
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
