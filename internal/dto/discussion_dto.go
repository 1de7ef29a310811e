package dto

// QuestionRequest posts a new question.
type QuestionRequest struct {
	Question string `json:"question"`
}

// AnswerRequest posts an answer to a question.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// EditQuestionRequest replaces a question's text.
type EditQuestionRequest struct {
	QuestionText string `json:"questionText"`
}
