package models

// ContextMode separates conversational memory per practice style
type ContextMode string

const (
	// ContextConversation is free conversation with the coach
	ContextConversation ContextMode = "conversation"
	// ContextRoleplay is a roleplay session (teacher, friend, interviewer, viva)
	ContextRoleplay ContextMode = "roleplay"
)
