/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package viperutil

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hyperledger-labs/kubechain/pkg/utils/errors"
	"github.com/spf13/viper"
)

// customDecodeHook parses strings of the format "[thing1, thing2, thing3]" into string slices
// Note that whitespace around slice elements is removed
func customDecodeHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if f.Kind() != reflect.String {
		return data, nil
	}

	raw := data.(string)
	l := len(raw)
	if l > 1 && raw[0] == '[' && raw[l-1] == ']' {
		slice := strings.Split(raw[1:l-1], ",")
		for i, v := range slice {
			slice[i] = strings.TrimSpace(v)
		}
		return slice, nil
	}

	return data, nil
}

// trimStringDecodeHook drops surrounding whitespace that env overrides tend to carry
func trimStringDecodeHook(f reflect.Kind, t reflect.Kind, data interface{}) (interface{}, error) {
	if f != reflect.String || t != reflect.String {
		return data, nil
	}
	return strings.TrimSpace(data.(string)), nil
}

// EnhancedExactUnmarshal is intended to unmarshal a config file into a structure
// supporting the time.Duration type. An empty key decodes the whole document.
func EnhancedExactUnmarshal(v *viper.Viper, key string, output interface{}) error {
	oType := reflect.TypeOf(output)
	if oType == nil || oType.Kind() != reflect.Ptr {
		return errors.Errorf("supplied output argument must be a pointer to a struct but is not pointer")
	}

	config := &mapstructure.DecoderConfig{
		ErrorUnused:      false,
		Metadata:         nil,
		Result:           output,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			customDecodeHook,
			trimStringDecodeHook,
		),
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return err
	}
	if len(key) == 0 {
		return decoder.Decode(v.AllSettings())
	}
	return decoder.Decode(v.Get(key))
}
