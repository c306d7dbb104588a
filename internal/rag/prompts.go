package rag

import (
	"fmt"

	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
)

const answerSystemPromptFormat = `You are an expert corporate training assistant.
Your job is to answer the employee's question using the provided document context.

Follow this exact two-part format in your response:

**📄 From the Document:**
Give a direct, accurate answer based strictly on the provided context.
If the topic is not covered, say: "This specific topic is not mentioned in the current document."

**💡 Explanation:**
Expand on the answer with a clear, simple explanation to help the employee fully understand the concept, rule, or policy. You may use examples or analogies where helpful.

Your entire response MUST be in %s.`

const summarySystemPromptFormat = `You are a professional assistant.
Summarize the following document context for an employee.
Highlight the most important rules or guidelines.
Your summary MUST be entirely in %s.`

func answerSystemPrompt(lang commonModels.Language) string {
	return fmt.Sprintf(answerSystemPromptFormat, lang)
}

func answerUserPrompt(context, query string, lang commonModels.Language) string {
	return fmt.Sprintf("Document Context:\n%s\n\nEmployee Question: %s\n\nRespond in %s using the two-part format:", context, query, lang)
}

func summarySystemPrompt(lang commonModels.Language) string {
	return fmt.Sprintf(summarySystemPromptFormat, lang)
}

func summaryUserPrompt(context string, lang commonModels.Language) string {
	return fmt.Sprintf("Document Context:\n%s\n\nProvide a concise and professional summary in %s:", context, lang)
}
