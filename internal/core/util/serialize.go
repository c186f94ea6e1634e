package util

import "encoding/json"

func Serialize(value any) ([]byte, error) {
	return json.Marshal(value)
}

func Deserialize[T any](data []byte) (T, error) {
	var value T

	if err := json.Unmarshal(data, &value); err != nil {
		return value, err
	}

	return value, nil
}
