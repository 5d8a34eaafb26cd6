package http

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"cofrinho/internal/core"
)

// sanitizeInput trims s and drops control characters other than tab and newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(b)
}

// entryErrorMessage is the message shown above the entry form.
func entryErrorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyDescription):
		return "Informe uma descrição."
	case errors.Is(err, core.ErrDescriptionTooLong):
		return "A descrição pode ter no máximo 200 caracteres."
	case errors.Is(err, core.ErrInvalidAmount):
		return "Informe um valor maior que zero."
	case errors.Is(err, core.ErrInvalidKind):
		return "Escolha entre receita e despesa."
	case errors.Is(err, core.ErrInvalidCategory):
		return "Escolha uma categoria válida."
	case errors.Is(err, core.ErrInvalidOwner):
		return "Escolha de quem é o lançamento."
	}
	return "Não foi possível salvar o lançamento."
}
