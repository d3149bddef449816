package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DictToStruct builds a typed record from a raw API payload. A nil payload, or a nil
// nested section, yields the zero record rather than an error.
func DictToStruct[T any](raw interface{}) (T, error) {
	var out T
	if raw == nil {
		return out, nil
	}
	switch v := raw.(type) {
	case json.RawMessage:
		if len(v) == 0 || string(v) == "null" {
			return out, nil
		}
		var generic interface{}
		if err := json.Unmarshal(v, &generic); err != nil {
			return out, fmt.Errorf("decode payload, error: %w", err)
		}
		raw = generic
	case []byte:
		return DictToStruct[T](json.RawMessage(v))
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err = decoder.Decode(raw); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %T, error: %w", out, err)
	}
	return out, nil
}

// ToDict is the inverse of DictToStruct, keyed by json names.
func ToDict(record interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var dict map[string]interface{}
	if err = json.Unmarshal(data, &dict); err != nil {
		return nil, err
	}
	return dict, nil
}

// nested field names resolvable from the top of each composite record
var (
	taskAliases = map[string]string{
		"duration":       "task_detail.duration",
		"hardware":       "task_detail.hardware",
		"job_source_uri": "task_detail.job_source_uri",
		"price_per_hour": "task_detail.price_per_hour",
		"region":         "task_detail.requirements.region",
		"hardware_id":    "task_detail.requirements.hardware_id",
	}
	creationAliases = map[string]string{
		"uuid":           "task.uuid",
		"status":         "task.status",
		"start_at":       "task.start_at",
		"end_at":         "task.end_at",
		"refund_wallet":  "task.refund_wallet",
		"job_source_uri": "task.task_detail.job_source_uri",
		"price_per_hour": "task.task_detail.price_per_hour",
		"hardware":       "task.task_detail.hardware",
		"order_type":     "config_order.order_type",
		"order_status":   "config_order.status",
		"duration":       "config_order.duration",
		"region":         "config_order.region",
	}
	renewalAliases = map[string]string{
		"uuid":         "task.uuid",
		"status":       "task.status",
		"end_at":       "task.end_at",
		"order_type":   "config_order.order_type",
		"order_status": "config_order.status",
		"region":       "config_order.region",
	}
	deploymentAliases = map[string]string{
		"uuid":           "task.uuid",
		"status":         "task.status",
		"start_at":       "task.start_at",
		"end_at":         "task.end_at",
		"refund_wallet":  "task.refund_wallet",
		"job_source_uri": "task.task_detail.job_source_uri",
		"hardware":       "task.task_detail.hardware",
		"duration":       "task.task_detail.duration",
		"price_per_hour": "task.task_detail.price_per_hour",
	}
)

func (t Task) Field(name string) (interface{}, error) {
	return lookup(t, taskAliases, name)
}

func (r TaskCreationResult) Field(name string) (interface{}, error) {
	return lookup(r, creationAliases, name)
}

func (r TaskRenewalResult) Field(name string) (interface{}, error) {
	return lookup(r, renewalAliases, name)
}

func (d TaskDeploymentInfo) Field(name string) (interface{}, error) {
	return lookup(d, deploymentAliases, name)
}

func lookup(record interface{}, aliases map[string]string, name string) (interface{}, error) {
	dict, err := ToDict(record)
	if err != nil {
		return nil, err
	}
	if v, ok := dict[name]; ok {
		return v, nil
	}
	path, ok := aliases[name]
	if !ok {
		return nil, fmt.Errorf("%T.%s: %w", record, name, ErrFieldNotFound)
	}

	var cur interface{} = dict
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%T.%s: %w", record, name, ErrFieldNotFound)
		}
		if cur, ok = m[key]; !ok {
			return nil, fmt.Errorf("%T.%s: %w", record, name, ErrFieldNotFound)
		}
	}
	return cur, nil
}
