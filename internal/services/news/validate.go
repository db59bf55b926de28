package news

import (
	"bytes"
	"encoding/json"
	"time"

	"newsfeed/internal/apperr"
)

// Placeholders substituted for missing article fields.
const (
	UntitledTitle      = "Untitled"
	NoDescription      = "No description available"
	UnknownSourceName  = "Unknown Source"
	upstreamErrDefault = "API returned an error"
)

type rawResponse struct {
	Status       string          `json:"status"`
	Code         string          `json:"code"`
	Message      string          `json:"message"`
	TotalResults *int            `json:"totalResults"`
	Articles     json.RawMessage `json:"articles"`
}

type rawArticle struct {
	Source      *Source `json:"source"`
	Author      *string `json:"author"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt *string `json:"publishedAt"`
	Content     *string `json:"content"`
}

// ValidateResponse checks the shape of an upstream payload and fills article
// defaults. now stamps articles that carry no publication time. Upstream
// order is preserved.
func ValidateResponse(raw []byte, now time.Time) (*Response, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, apperr.New(apperr.KindValidation, "Empty response received")
	}

	var data rawResponse
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "Invalid response format")
	}

	if data.Status == "error" {
		msg := data.Message
		if msg == "" {
			msg = upstreamErrDefault
		}
		return nil, apperr.Upstream(data.Code, msg)
	}

	articles := bytes.TrimSpace(data.Articles)
	if len(articles) == 0 || articles[0] != '[' {
		return nil, apperr.New(apperr.KindValidation, "Invalid articles data received")
	}

	var items []*rawArticle
	if err := json.Unmarshal(articles, &items); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "Invalid articles data received")
	}

	resp := &Response{
		Status:   "ok",
		Articles: make([]Article, 0, len(items)),
	}
	for _, item := range items {
		if item == nil {
			item = &rawArticle{}
		}
		resp.Articles = append(resp.Articles, item.normalize(now))
	}

	if data.TotalResults != nil {
		resp.TotalResults = *data.TotalResults
	} else {
		resp.TotalResults = len(resp.Articles)
	}

	return resp, nil
}

func (a *rawArticle) normalize(now time.Time) Article {
	out := Article{
		Author:     a.Author,
		URL:        a.URL,
		URLToImage: a.URLToImage,
		Content:    a.Content,
	}

	if a.Title != nil && *a.Title != "" {
		out.Title = *a.Title
	} else {
		out.Title = UntitledTitle
	}

	desc := NoDescription
	if a.Description != nil && *a.Description != "" {
		desc = *a.Description
	}
	out.Description = &desc

	if out.URLToImage != nil && *out.URLToImage == "" {
		out.URLToImage = nil
	}

	if a.PublishedAt != nil && *a.PublishedAt != "" {
		out.PublishedAt = *a.PublishedAt
	} else {
		out.PublishedAt = now.UTC().Format(time.RFC3339)
	}

	if a.Source != nil && a.Source.Name != "" {
		out.Source = *a.Source
	} else {
		out.Source = Source{Name: UnknownSourceName}
	}

	return out
}
