package tool

import (
	"fmt"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
)

// studyHistoryWindow replays the last two question/answer rounds
const studyHistoryWindow = 2

func studentTools() []*Definition {
	return []*Definition{
		{
			ID:          "homework-helper",
			Pillar:      PillarStudents,
			Description: "Tutor answer to a homework question",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: []Field{
				{Name: "question", Type: TypeString, Required: true, Rules: "max=4000"},
				{Name: "subject", Type: TypeString, Required: true},
			},
			System: func(in Input) string {
				return fmt.Sprintf("You are an expert academic tutor for the subject of %s. "+
					"Provide a clear, helpful, and educational answer to the student's question.", in.String("subject"))
			},
			Template: func(in Input) string {
				return in.String("question")
			},
		},
		{
			ID:          "essay-generator",
			Pillar:      PillarStudents,
			Description: "Structured essay on a topic",
			Kind:        KindCompletion,
			Shape:       domain.ShapeDocument,
			Fields: []Field{
				{Name: "topic", Type: TypeString, Required: true, Rules: "max=500"},
				{Name: "length", Type: TypeString, Rules: "oneof=short medium long", Default: "medium"},
				{Name: "tone", Type: TypeString, Default: "academic"},
			},
			System: func(in Input) string {
				return fmt.Sprintf("You are a professional essay writer. Write a %s essay on the topic of '%s' in a %s tone. "+
					"Ensure proper structure with introduction, body paragraphs, and a conclusion.",
					in.String("length"), in.String("topic"), in.String("tone"))
			},
			Template: func(in Input) string {
				return "Write the essay about: " + in.String("topic")
			},
			Post: documentText,
		},
		{
			ID:          "math-solver",
			Pillar:      PillarStudents,
			Description: "Step-by-step math solution",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: []Field{
				{Name: "problem", Type: TypeString, Required: true, Rules: "max=4000"},
			},
			System: func(Input) string {
				return "You are a math tutor. Solve the following mathematical problem step-by-step. " +
					"Explain the reasoning clearly for each step so the student can learn the process."
			},
			Template: func(in Input) string {
				return in.String("problem")
			},
			Temperature: 0.2,
		},
		{
			ID:          "study-mode",
			Pillar:      PillarStudents,
			Description: "Interactive study companion that remembers the conversation",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: []Field{
				{Name: "topic", Type: TypeString, Required: true, Rules: "max=500"},
				{Name: "question", Type: TypeString, Rules: "max=4000"},
			},
			System: func(in Input) string {
				return fmt.Sprintf("You are a learning companion. The student wants to study '%s'. "+
					"Facilitate an interactive learning session by explaining concepts and asking the student questions "+
					"to check their understanding. Keep it engaging and encouraging.", in.String("topic"))
			},
			Template: func(in Input) string {
				return in.StringOr("question", "I want to start studying "+in.String("topic"))
			},
			HistoryWindow: studyHistoryWindow,
		},
		{
			ID:          "flashcards",
			Pillar:      PillarStudents,
			Description: "Front/back flashcards from study material",
			Kind:        KindCompletion,
			Shape:       domain.ShapeDocument,
			Fields: []Field{
				{Name: "content", Type: TypeString, Required: true, Rules: "max=20000"},
				{Name: "format", Type: TypeString, Default: "qa"},
			},
			System: func(Input) string {
				return "You are an educational assistant. Create a set of flashcards from the provided content. " +
					"Format each card as 'Front: [Question]' and 'Back: [Answer]'. Provide at least 5 cards if possible."
			},
			Template: func(in Input) string {
				return in.String("content")
			},
			Post: documentText,
		},
		{
			ID:          "text-summary",
			Pillar:      PillarStudents,
			Description: "Summary of a text at the requested detail level",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: []Field{
				{Name: "content", Type: TypeString, Required: true, Rules: "max=20000"},
				{Name: "detail_level", Type: TypeString, Rules: "oneof=brief medium detailed", Default: "medium"},
			},
			System: func(in Input) string {
				return fmt.Sprintf("Summarize the following text. The detail level should be %s. "+
					"Focus on key concepts and main takeaway points.", in.String("detail_level"))
			},
			Template: func(in Input) string {
				return in.String("content")
			},
		},
	}
}
