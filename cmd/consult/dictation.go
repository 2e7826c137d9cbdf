package main

import (
	"sync"

	"github.com/Rrens/medical-agent/internal/call"
)

// lineEngine recognizes typed lines as finished utterances
type lineEngine struct {
	mu      sync.Mutex
	current *lineRecognition
}

func (e *lineEngine) Open(handlers call.RecognitionHandlers) (call.Recognition, error) {
	r := &lineRecognition{engine: e, handlers: handlers}
	e.mu.Lock()
	e.current = r
	e.mu.Unlock()
	return r, nil
}

// hear delivers a line to the listening recognition, if any
func (e *lineEngine) hear(line string) {
	e.mu.Lock()
	r := e.current
	e.mu.Unlock()
	if r == nil || !r.isListening() {
		return
	}

	r.setListening(false)
	r.handlers.OnResult([]call.RecognitionResult{{Transcript: line, Final: true}})
	r.handlers.OnEnd()
}

type lineRecognition struct {
	engine    *lineEngine
	handlers  call.RecognitionHandlers
	mu        sync.Mutex
	listening bool
}

func (r *lineRecognition) Start() error {
	r.setListening(true)
	return nil
}

func (r *lineRecognition) Abort() {
	r.setListening(false)
	r.engine.mu.Lock()
	if r.engine.current == r {
		r.engine.current = nil
	}
	r.engine.mu.Unlock()
}

func (r *lineRecognition) setListening(v bool) {
	r.mu.Lock()
	r.listening = v
	r.mu.Unlock()
}

func (r *lineRecognition) isListening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}
