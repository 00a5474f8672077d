// Package models lists the OpenAI models available to the configured key
// and sorts them into vision models usable for image scoring and chat
// models usable for label translation.
package models
