package utils

import (
	"crypto/md5"
	"fmt"
	"os"

	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

// ContainsString returns true iff the provided string slice hay contains
// string needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// TextToMd5Hash returns the hex md5 digest of the input text.
func TextToMd5Hash(text string) (string, error) {
	h := md5.New()
	if _, err := h.Write([]byte(text)); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// ImmediatePrintError logs the error at the place it happens and returns the
// same error so that the caller can still propagate it up.
func ImmediatePrintError(err error) error {
	if err != nil {
		Logger.Log.Errorln(err)
	}
	return err
}

func IsProdEnv() bool {
	return os.Getenv("CRYPTOPULSE_ENV") == "prod"
}
