// Package assist turns note text into study material with a chat completion
// model: flashcards, multiple-choice quizzes and reorganized notes.
package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Prompts sent with every request.
const (
	flashcardSystem = "You are a helpful assistant that generates flashcards for studying. Format your response as a JSON array of objects with 'front' and 'back' properties."
	flashcardUser   = "Generate 5 flashcards from the following note: "

	quizSystem = "You are a helpful assistant that generates quiz questions for studying. Format your response as a JSON array of objects with 'question', 'options' (array of strings), and 'correctAnswer' (index of correct option) properties."
	quizUser   = "Generate 5 multiple-choice quiz questions from the following note: "

	organizeSystem = "You are a helpful assistant that organizes study notes into clear, structured formats with headings, subheadings, and bullet points."
	organizeUser   = "Organize the following study notes into a clear, structured format: "
)

// ErrEmptyNote is returned when there is no text to send.
var ErrEmptyNote = errors.New("note has no text")

// ResponseError reports a model reply that could not be used.
type ResponseError struct {
	Op      string
	Reason  string
	Content string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: unusable response: %s", e.Op, e.Reason)
}

// Completer sends one system and one user message and returns the reply.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Flashcard is a question on the front and its answer on the back.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Question is a multiple-choice question. CorrectAnswer indexes Options.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Assistant generates study material from note text.
type Assistant struct {
	c      Completer
	logger zerolog.Logger
}

// New creates an assistant over c.
func New(c Completer, logger zerolog.Logger) *Assistant {
	return &Assistant{c: c, logger: logger}
}

// Flashcards asks for flashcards covering text.
func (a *Assistant) Flashcards(ctx context.Context, text string) ([]Flashcard, error) {
	const op = "flashcards"
	content, err := a.complete(ctx, op, flashcardSystem, flashcardUser, text)
	if err != nil {
		return nil, err
	}
	arr, err := ExtractArray(content)
	if err != nil {
		return nil, &ResponseError{Op: op, Reason: err.Error(), Content: content}
	}

	var cards []Flashcard
	for i, item := range arr.Array() {
		card := Flashcard{
			Front: strings.TrimSpace(item.Get("front").String()),
			Back:  strings.TrimSpace(item.Get("back").String()),
		}
		if card.Front == "" || card.Back == "" {
			return nil, &ResponseError{Op: op, Reason: fmt.Sprintf("card %d is missing a side", i), Content: content}
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return nil, &ResponseError{Op: op, Reason: "no cards", Content: content}
	}
	return cards, nil
}

// Quiz asks for multiple-choice questions covering text.
func (a *Assistant) Quiz(ctx context.Context, text string) ([]Question, error) {
	const op = "quiz"
	content, err := a.complete(ctx, op, quizSystem, quizUser, text)
	if err != nil {
		return nil, err
	}
	arr, err := ExtractArray(content)
	if err != nil {
		return nil, &ResponseError{Op: op, Reason: err.Error(), Content: content}
	}

	var questions []Question
	for i, item := range arr.Array() {
		q := Question{Question: strings.TrimSpace(item.Get("question").String())}
		for _, opt := range item.Get("options").Array() {
			q.Options = append(q.Options, opt.String())
		}
		answer := item.Get("correctAnswer")
		if q.Question == "" || len(q.Options) == 0 || !answer.Exists() {
			return nil, &ResponseError{Op: op, Reason: fmt.Sprintf("question %d is incomplete", i), Content: content}
		}
		q.CorrectAnswer = int(answer.Int())
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, &ResponseError{Op: op, Reason: fmt.Sprintf("question %d answer %d out of range", i, q.CorrectAnswer), Content: content}
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, &ResponseError{Op: op, Reason: "no questions", Content: content}
	}
	return questions, nil
}

// Organize asks for text restructured with headings and bullet points.
func (a *Assistant) Organize(ctx context.Context, text string) (string, error) {
	const op = "organize"
	content, err := a.complete(ctx, op, organizeSystem, organizeUser, text)
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", &ResponseError{Op: op, Reason: "empty reply"}
	}
	return content, nil
}

func (a *Assistant) complete(ctx context.Context, op, system, prompt, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyNote
	}
	a.logger.Debug().Str("op", op).Int("chars", len(text)).Msg("requesting completion")
	content, err := a.c.Complete(ctx, system, prompt+text)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return content, nil
}

// ExtractArray finds the JSON array in a model reply. It tries a ```json
// fenced block, then the span from the first '[' to the last ']', then the
// whole reply.
func ExtractArray(content string) (gjson.Result, error) {
	for _, candidate := range candidates(content) {
		candidate = strings.TrimSpace(candidate)
		if !gjson.Valid(candidate) {
			continue
		}
		if r := gjson.Parse(candidate); r.IsArray() {
			return r, nil
		}
	}
	return gjson.Result{}, errors.New("no JSON array found")
}

func candidates(content string) []string {
	var out []string
	if _, rest, ok := strings.Cut(content, "```json"); ok {
		if body, _, ok := strings.Cut(rest, "```"); ok {
			out = append(out, body)
		}
	}
	if i, j := strings.IndexByte(content, '['), strings.LastIndexByte(content, ']'); i >= 0 && j > i {
		out = append(out, content[i:j+1])
	}
	return append(out, content)
}
