package util

import "encoding/json"

// EncoderDecoder converts one model type to and from its stored byte
// form. The DAOs hold one per stored type so the wire format stays a
// storage concern.
type EncoderDecoder[T any] interface {
	Encode(value T) ([]byte, error)
	Decode(data []byte) (*T, error)
}

type jsonEncDec[T any] struct{}

func NewJsonEncoderDecoder[T any]() EncoderDecoder[T] {
	return jsonEncDec[T]{}
}

func (jsonEncDec[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (jsonEncDec[T]) Decode(data []byte) (*T, error) {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return &value, nil
}
