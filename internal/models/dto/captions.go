package dto

import "github.com/captionly/captionly-be/internal/models"

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	Caption models.Caption `json:"caption"`
}

type CaptionsResponse struct {
	Captions []models.Caption `json:"captions"`
}
