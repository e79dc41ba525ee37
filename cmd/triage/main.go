// triage sends financial messages that failed extraction to Gemini and
// prints suggested message templates, to help close gaps in the pattern
// grammar.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/finbuddy/smsledger/internal/extract"
	"github.com/finbuddy/smsledger/internal/logger"
)

const modelName = "gemini-2.0-flash"

func main() {
	var (
		file     = flag.String("file", "", "Path to a file with one SMS message per line (default: stdin)")
		limit    = flag.Int("limit", 50, "Maximum number of unextractable messages to triage")
		logLevel = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	log := logger.New("triage", *logLevel)

	var in io.Reader = os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("Failed to open input file")
		}
		defer f.Close()
		in = f
	}

	// Collect messages the extractor cannot handle.
	extractor := extract.NewExtractor()
	var gaps []string

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !extract.IsFinancial(line) {
			continue
		}
		if _, ok := extractor.Extract(line); !ok {
			gaps = append(gaps, line)
			if len(gaps) >= *limit {
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	if len(gaps) == 0 {
		fmt.Println("No extraction gaps found.")
		return
	}

	log.Info().Int("count", len(gaps)).Msg("Asking model to suggest templates")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	suggestions, err := suggestTemplates(ctx, gaps)
	if err != nil {
		log.Fatal().Err(err).Msg("Template suggestion failed")
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	if err := out.Encode(suggestions); err != nil {
		log.Fatal().Err(err).Msg("Failed to write suggestions")
	}
}

// suggestTemplates asks Gemini to group unparsed messages into template
// families and propose an extraction pattern for each.
func suggestTemplates(ctx context.Context, messages []string) (interface{}, error) {
	prompt :=
		"You are helping maintain a rule-based SMS transaction extractor for Indian bank messages.\n\n" +
			"The messages below passed a financial-vocabulary check but no amount or fields could be extracted.\n" +
			"Group them into template families and, for each family, propose:\n" +
			"- \"template\": the message shape with placeholders like {amount}, {account}, {name}\n" +
			"- \"amount_hint\": where the amount appears\n" +
			"- \"example\": one message from the input\n\n" +
			"Output STRICT JSON only: a JSON array of objects with exactly those fields.\n" +
			"Do NOT wrap the response in code fences.\n" +
			"Output must begin with \"[\" and end with \"]\".\n\n" +
			"Messages:\n"

	var sb strings.Builder
	sb.WriteString(prompt)
	for _, m := range messages {
		sb.WriteString("- ")
		sb.WriteString(m)
		sb.WriteString("\n")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: sb.String()},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, modelName, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	clean := cleanModelJSON(rawText)

	var parsed interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	return parsed, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the
// model ignores the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = s[start : end+1]
			s = strings.TrimSpace(s)
		}
	}

	return s
}
