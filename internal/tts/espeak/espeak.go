// Package espeak is the offline speech engine. It links against libespeak-ng.
package espeak

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

static int
espeak_say(const char *text, const char *voice, int rate)
{
	if (!text || !voice)
	{ return -1; }

	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -2; }

	espeak_VOICE specs = { .languages = voice };
	if (espeak_SetVoiceByProperties(&specs) != EE_OK)
	{ espeak_Terminate(); return -3; }

	if (rate > 0)
	{ espeak_SetParameter(espeakRATE, rate, 0); }

	espeak_ERROR rc = espeak_Synth(text, 500, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return rc == EE_OK ? 0 : -4;
}
*/
import "C"

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unsafe"
)

// libespeak-ng keeps global state; one utterance at a time.
var mu sync.Mutex

type Engine struct {
	voice string
	rate  int
}

func New(voice string, rate int) *Engine {
	if strings.TrimSpace(voice) == "" {
		voice = "en"
	}
	return &Engine{voice: voice, rate: rate}
}

func (e *Engine) Name() string { return "espeak" }

func (e *Engine) Say(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	cvoice := C.CString(e.voice)
	defer C.free(unsafe.Pointer(cvoice))

	mu.Lock()
	rc := C.espeak_say(ctext, cvoice, C.int(e.rate))
	mu.Unlock()

	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}
	return nil
}
