package service

import "errors"

var (
	ErrWordNotFound     = errors.New("word not found")
	ErrWordExists       = errors.New("word already exists")
	ErrGroupNotFound    = errors.New("group not found")
	ErrGroupExists      = errors.New("group already exists")
	ErrActivityNotFound = errors.New("study activity not found")
	ErrSessionNotFound  = errors.New("study session not found")
	ErrNoStudySessions  = errors.New("no study sessions found")
)
