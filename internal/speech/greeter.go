// Package speech serves the personalized greeting audio, generating it once
// per name and reusing the file afterwards.
package speech

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eon-interface/idealworld/internal/keylock"
	"github.com/eon-interface/idealworld/internal/logging"
	"github.com/eon-interface/idealworld/internal/storage"
	"golang.org/x/sync/singleflight"
)

const opGreeting = "greeting"

// QuestionFile is the fixed "what is your name?" recording.
const QuestionFile = "audio_pergunta_nome.mp3"

var nameReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// Synthesizer converts text to encoded speech audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// SanitizeName maps a spoken name to the file-name fragment used as cache key.
func SanitizeName(name string) string {
	return nameReplacer.Replace(strings.ToLower(name))
}

// FileName returns the cache file name for a spoken name.
func FileName(name string) string {
	return "audio_" + SanitizeName(name) + ".mp3"
}

// GreetingText is what gets spoken for name.
func GreetingText(name string) string {
	return fmt.Sprintf("Olá, %s, como você imagina o mundo perfeito?", name)
}

type Greeter struct {
	synth   Synthesizer
	dir     *storage.Dir
	locker  keylock.Locker
	timeout time.Duration
	group   singleflight.Group
}

// NewGreeter builds a Greeter. timeout bounds one shared generation,
// including the wait for the lock; zero leaves it unbounded.
func NewGreeter(synth Synthesizer, dir *storage.Dir, locker keylock.Locker, timeout time.Duration) *Greeter {
	return &Greeter{synth: synth, dir: dir, locker: locker, timeout: timeout}
}

// Greeting returns the path of the greeting audio for name, synthesizing it on
// first use. Concurrent requests for the same name share one synthesis call,
// which keeps running when the caller that started it goes away.
func (g *Greeter) Greeting(ctx context.Context, name string) (string, error) {
	fileName := FileName(name)
	path, err := g.dir.Path(fileName)
	if err != nil {
		return "", err
	}
	if g.dir.Exists(fileName) {
		return path, nil
	}

	ch := g.group.DoChan(fileName, func() (interface{}, error) {
		work := context.WithoutCancel(ctx)
		if g.timeout > 0 {
			var cancel context.CancelFunc
			work, cancel = context.WithTimeout(work, g.timeout)
			defer cancel()
		}
		return nil, g.generate(work, name, fileName)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return path, nil
	}
}

func (g *Greeter) generate(ctx context.Context, name, fileName string) error {
	logger := logging.New(ctx)

	unlock, err := g.locker.Lock(ctx, fileName)
	if err != nil {
		return fmt.Errorf("lock %s: %w", fileName, err)
	}
	defer unlock()

	// another process may have written it while we waited
	if g.dir.Exists(fileName) {
		return nil
	}

	logger.Infof(opGreeting, "cache miss file=%s", fileName)
	audio, err := g.synth.Synthesize(ctx, GreetingText(name))
	if err != nil {
		return err
	}
	if err := g.dir.WriteAtomic(fileName, audio); err != nil {
		return err
	}
	logger.Infof(opGreeting, "stored file=%s bytes=%d", fileName, len(audio))
	return nil
}
