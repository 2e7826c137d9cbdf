package call

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// RecognitionResult is one hypothesis from the speech recognizer
type RecognitionResult struct {
	Transcript string
	Final      bool
}

// RecognitionHandlers receive callbacks for a single recognition handle
type RecognitionHandlers struct {
	OnResult func(results []RecognitionResult)
	OnError  func(err error)
	OnEnd    func()
}

// Recognition is an open speech-to-text handle. It ends after each
// utterance and may be started again.
type Recognition interface {
	Start() error
	Abort()
}

// SpeechEngine opens recognition handles
type SpeechEngine interface {
	Open(handlers RecognitionHandlers) (Recognition, error)
}

// Dictation feeds recognized speech into the pending input text. It never
// writes to the transcript. Every start gets a new generation and callbacks
// from older generations are dropped.
type Dictation struct {
	engine   SpeechEngine
	onChange func(input string)

	mu     sync.Mutex
	gen    uint64
	wanted bool
	reco   Recognition
	input  string
}

// NewDictation creates dictation over engine. onChange, if set, is called
// with the pending input after every update.
func NewDictation(engine SpeechEngine, onChange func(input string)) *Dictation {
	return &Dictation{engine: engine, onChange: onChange}
}

// Active reports whether dictation should be running
func (d *Dictation) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wanted
}

// Input returns the pending input text
func (d *Dictation) Input() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.input
}

// SetInput replaces the pending input, e.g. with typed text
func (d *Dictation) SetInput(text string) {
	d.mu.Lock()
	d.input = text
	d.mu.Unlock()
	d.changed(text)
}

// ClearInput empties the pending input
func (d *Dictation) ClearInput() {
	d.SetInput("")
}

// Toggle starts dictation when stopped and stops it when running
func (d *Dictation) Toggle() (bool, error) {
	if d.Active() {
		d.Stop()
		return false, nil
	}
	if err := d.Start(); err != nil {
		return false, err
	}
	return true, nil
}

// Start opens a new recognition handle, replacing any existing one
func (d *Dictation) Start() error {
	d.mu.Lock()
	old := d.unbind()
	d.wanted = true
	gen := d.gen
	d.mu.Unlock()

	if old != nil {
		old.Abort()
	}

	reco, err := d.engine.Open(d.handlers(gen))
	if err != nil {
		d.fail(gen, nil)
		return err
	}

	d.mu.Lock()
	if d.gen != gen {
		d.mu.Unlock()
		reco.Abort()
		return nil
	}
	d.reco = reco
	d.mu.Unlock()

	if err := reco.Start(); err != nil {
		log.Warn().Err(err).Msg("failed to start dictation")
		d.fail(gen, reco)
		return err
	}
	return nil
}

// Stop turns dictation off. Callbacks still in flight are discarded.
func (d *Dictation) Stop() {
	d.mu.Lock()
	d.wanted = false
	reco := d.unbind()
	d.mu.Unlock()

	if reco != nil {
		reco.Abort()
	}
}

// unbind invalidates the current generation and detaches its handle. Caller holds mu.
func (d *Dictation) unbind() Recognition {
	d.gen++
	reco := d.reco
	d.reco = nil
	return reco
}

// fail turns dictation off if gen is still current
func (d *Dictation) fail(gen uint64, reco Recognition) {
	d.mu.Lock()
	if d.gen == gen {
		d.wanted = false
		d.unbind()
	}
	d.mu.Unlock()

	if reco != nil {
		reco.Abort()
	}
}

func (d *Dictation) handlers(gen uint64) RecognitionHandlers {
	return RecognitionHandlers{
		OnResult: func(results []RecognitionResult) { d.onResult(gen, results) },
		OnError:  func(err error) { d.onError(gen, err) },
		OnEnd:    func() { d.onEnd(gen) },
	}
}

func (d *Dictation) onResult(gen uint64, results []RecognitionResult) {
	var final string
	for _, r := range results {
		if r.Final {
			final += r.Transcript
		}
	}

	d.mu.Lock()
	if d.gen != gen || !d.wanted {
		d.mu.Unlock()
		return
	}
	if final == "" {
		d.mu.Unlock()
		return
	}
	d.input = d.input + " " + final
	input := d.input
	d.mu.Unlock()

	d.changed(input)
}

func (d *Dictation) onError(gen uint64, err error) {
	d.mu.Lock()
	current := d.gen == gen
	d.mu.Unlock()

	// no-speech ends the utterance; onEnd restarts
	if current {
		log.Debug().Err(err).Msg("dictation error")
	}
}

func (d *Dictation) onEnd(gen uint64) {
	d.mu.Lock()
	if d.gen != gen {
		d.mu.Unlock()
		return
	}
	if !d.wanted {
		reco := d.unbind()
		d.mu.Unlock()
		if reco != nil {
			reco.Abort()
		}
		return
	}
	reco := d.reco
	d.mu.Unlock()

	if reco == nil {
		return
	}
	if err := reco.Start(); err != nil {
		log.Warn().Err(err).Msg("failed to restart dictation")
		d.fail(gen, reco)
	}
}

func (d *Dictation) changed(input string) {
	if d.onChange != nil {
		d.onChange(input)
	}
}
