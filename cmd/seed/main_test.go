package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCatalog_Latin1(t *testing.T) {
	src := "codigo;nombre;descripcion;costo\nA-1;Algodón;Paquete x 100;1500,50\n;;;\nB-2;Tapabocas;;\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(src)
	require.NoError(t, err)

	rows, err := parseCatalog(bytes.NewReader([]byte(encoded)), ';', true)
	require.NoError(t, err)
	require.Len(t, rows, 2, "las filas vacías se ignoran")

	assert.Equal(t, "Algodón", rows[0].Name)
	require.NotNil(t, rows[0].Cost)
	assert.Equal(t, "1500.5", rows[0].Cost.String())
	assert.Equal(t, 2, rows[0].Line)

	assert.Equal(t, "B-2", rows[1].Code)
	assert.Nil(t, rows[1].Cost)
}

func TestParseCatalog_FilaIncompleta(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("codigo,nombre\nA-1,\n"), ',', false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fila 2")
}

func TestParseCatalog_CostoInvalido(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("codigo,nombre,descripcion,costo\nA-1,Guantes,,abc\n"), ',', false)
	require.Error(t, err)
}
