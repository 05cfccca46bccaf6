package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID gera o identificador curto de um dataset ingerido. Seis
// caracteres alfanuméricos bastam para o volume de arquivos esperado
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 6)
}
