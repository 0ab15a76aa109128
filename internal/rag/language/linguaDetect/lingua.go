package linguaDetect

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"

	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

// minDetectableLength guards against one-word inputs, which lingua
// classifies close to randomly.
const minDetectableLength = 10

var detectorLanguages = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Russian,
	lingua.Chinese,
	lingua.Japanese,
	lingua.Korean,
	lingua.Arabic,
	lingua.Hindi,
	lingua.Bengali,
	lingua.Urdu,
	lingua.Telugu,
	lingua.Tamil,
	lingua.Marathi,
	lingua.Gujarati,
}

type Detector struct {
	inner  lingua.LanguageDetector
	logger *logger_i.Logger
}

var instance *Detector
var once sync.Once

// GetDetector builds the lingua model once; model loading is costly.
func GetDetector() *Detector {
	once.Do(func() {
		instance = &Detector{
			inner: lingua.NewLanguageDetectorBuilder().
				FromLanguages(detectorLanguages...).
				Build(),
			logger: logger_i.NewLogger("LinguaDetect"),
		}
	})
	return instance
}

func (d *Detector) Detect(text string) (string, bool) {
	if len(strings.TrimSpace(text)) < minDetectableLength {
		return "", false
	}
	detected, ok := d.inner.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	code := strings.ToLower(detected.IsoCode639_1().String())
	// lingua reports one Chinese language; the API's closed set splits it.
	if code == "zh" {
		code = "zh-cn"
	}
	d.logger.Debug("detected language", "code", code)
	return code, true
}
