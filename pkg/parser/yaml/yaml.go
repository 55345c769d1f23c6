package yaml

import (
	yamlv3 "gopkg.in/yaml.v3"
)

func Fmt(v any) ([]byte, error) {
	return yamlv3.Marshal(v)
}

func Parse(data []byte, vp any) error {
	return yamlv3.Unmarshal(data, vp)
}
