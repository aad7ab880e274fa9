// Package genai defines the capability interfaces for natural-language
// SQL generation and result summarization, plus a client for any
// OpenAI-compatible chat-completions endpoint. The pipeline treats both
// capabilities as black boxes returning untrusted strings.
package genai

import "context"

// Generator turns a natural-language question and a schema description
// into a candidate SQL string. The output is untrusted until it passes
// the guard.
type Generator interface {
	Generate(ctx context.Context, question, schemaJSON string) (string, error)
}

// Summarizer turns a packaged result into short prose for the user.
type Summarizer interface {
	Summarize(ctx context.Context, question, sqlText, packagedJSON string) (string, error)
}

const sqlSystemPrompt = `You are a careful SQLite query writer for a personal finance database.

STRICT RULES:
1. Use ONLY the tables and columns from the provided schema JSON.
2. If unsure about a column or table, return the closest valid query using only the provided schema.
3. Never use DROP, DELETE, UPDATE, INSERT, ALTER, PRAGMA, or other destructive operations.
4. Always include a WHERE clause when filtering data for security and performance.
5. Use SQLite date functions for relative dates (e.g., 'last month', 'this year').
6. Always reference at least one of these required tables: expenses, incomes.
7. Never return a constant SELECT statement (e.g., SELECT 1).

GUIDELINES:
- Prefer filtering on date, category, tags, and description columns when relevant.
- Keep SQL queries compact and idiomatic for SQLite.
- Use appropriate aggregate functions (SUM, AVG, COUNT, etc.) when summarizing data.`

const summarySystemPrompt = `You are a helpful financial assistant. Your task is to summarize database query results into clear, concise, and accurate 1-2 sentence summaries.

Guidelines:
- Use ONLY the numbers and data provided in the query results
- Include relevant totals, metrics, and date ranges when available
- Keep the summary factual, objective, and free from speculation
- Use natural language that a non-technical person would understand
- Never make up or assume information not present in the results
- For monetary values, include the currency (e.g., CLP for Chilean Pesos)
- If results are empty or show zero values, clearly state that no matching records were found`

func buildSQLUserPrompt(question, schemaJSON string) string {
	return "User question:\n" + question +
		"\n\nDatabase schema (JSON; includes tables, columns, and small samples):\n" + schemaJSON +
		"\n\nOutput:\nReturn ONLY the SQL query (no Markdown, no comments)."
}

func buildSummaryUserPrompt(question, sqlText, packagedJSON string) string {
	return "Question: " + question +
		"\nSQL Query: " + sqlText +
		"\nQuery Results:\n" + packagedJSON
}
