package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type APIDriver struct {
	baseURL string
	client  *http.Client
}

func NewAPIDriver(baseURL string) *APIDriver {
	return &APIDriver{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (d *APIDriver) CreateForm(title string) (*http.Response, error) {
	reqBody, err := json.Marshal(map[string]any{
		"title": title,
	})
	if err != nil {
		panic(err)
	}
	return d.client.Post(fmt.Sprintf("%s/v1/forms", d.baseURL), "application/json", bytes.NewBuffer(reqBody))
}

func (d *APIDriver) GetForm(id string) (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/v1/forms/%s", d.baseURL, id))
}

func (d *APIDriver) ListForms() (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/v1/forms", d.baseURL))
}

func (d *APIDriver) CreateField(formID, kind, title string, required bool) (*http.Response, error) {
	reqBody, err := json.Marshal(map[string]any{
		"kind":     kind,
		"title":    title,
		"required": required,
	})
	if err != nil {
		panic(err)
	}
	return d.client.Post(fmt.Sprintf("%s/v1/forms/%s/fields", d.baseURL, formID), "application/json", bytes.NewBuffer(reqBody))
}

func (d *APIDriver) CreateFieldWithJSON(formID, requestBody string) (*http.Response, error) {
	return d.client.Post(fmt.Sprintf("%s/v1/forms/%s/fields", d.baseURL, formID), "application/json", strings.NewReader(requestBody))
}

func (d *APIDriver) ListFields(formID, stage string) (*http.Response, error) {
	url := fmt.Sprintf("%s/v1/forms/%s/fields", d.baseURL, formID)
	if stage != "" {
		url += fmt.Sprintf("?stage=%s", stage)
	}
	return d.client.Get(url)
}

func (d *APIDriver) GetField(id, stage string) (*http.Response, error) {
	url := fmt.Sprintf("%s/v1/fields/%s", d.baseURL, id)
	if stage != "" {
		url += fmt.Sprintf("?stage=%s", stage)
	}
	return d.client.Get(url)
}

func (d *APIDriver) UpdateField(id, newTitle string) (*http.Response, error) {
	reqBody, err := json.Marshal(map[string]any{"title": &newTitle})
	if err != nil {
		panic(err)
	}
	req, err := http.NewRequest(http.MethodPatch, fmt.Sprintf("%s/v1/fields/%s", d.baseURL, id), bytes.NewBuffer(reqBody))
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return d.client.Do(req)
}

func (d *APIDriver) DeleteField(id string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/fields/%s", d.baseURL, id), nil)
	if err != nil {
		panic(err)
	}
	return d.client.Do(req)
}

func (d *APIDriver) GetFieldStatus(id string) (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/v1/fields/%s/status", d.baseURL, id))
}

func (d *APIDriver) PublishField(id string) (*http.Response, error) {
	return d.client.Post(fmt.Sprintf("%s/v1/fields/%s/publish", d.baseURL, id), "application/json", nil)
}

func (d *APIDriver) UnpublishField(id string) (*http.Response, error) {
	return d.client.Post(fmt.Sprintf("%s/v1/fields/%s/unpublish", d.baseURL, id), "application/json", nil)
}

func (d *APIDriver) DuplicateField(id string) (*http.Response, error) {
	return d.client.Post(fmt.Sprintf("%s/v1/fields/%s/duplicate", d.baseURL, id), "application/json", nil)
}

func (d *APIDriver) MigrateField(id string) (*http.Response, error) {
	return d.client.Post(fmt.Sprintf("%s/v1/fields/%s/migrate", d.baseURL, id), "application/json", nil)
}

func (d *APIDriver) MigrateAll() (*http.Response, error) {
	return d.client.Post(fmt.Sprintf("%s/v1/migrations", d.baseURL), "application/json", nil)
}

func (d *APIDriver) CreateOption(fieldID, label string, isDefault bool) (*http.Response, error) {
	reqBody, err := json.Marshal(map[string]any{
		"label":      label,
		"is_default": isDefault,
	})
	if err != nil {
		panic(err)
	}
	return d.client.Post(fmt.Sprintf("%s/v1/fields/%s/options", d.baseURL, fieldID), "application/json", bytes.NewBuffer(reqBody))
}

func (d *APIDriver) ListOptions(fieldID, stage string) (*http.Response, error) {
	url := fmt.Sprintf("%s/v1/fields/%s/options", d.baseURL, fieldID)
	if stage != "" {
		url += fmt.Sprintf("?stage=%s", stage)
	}
	return d.client.Get(url)
}

func (d *APIDriver) CreateRule(fieldID, conditionFieldID, operator, value string) (*http.Response, error) {
	reqBody, err := json.Marshal(map[string]any{
		"condition_field_id": conditionFieldID,
		"operator":           operator,
		"value":              value,
	})
	if err != nil {
		panic(err)
	}
	return d.client.Post(fmt.Sprintf("%s/v1/fields/%s/rules", d.baseURL, fieldID), "application/json", bytes.NewBuffer(reqBody))
}

func (d *APIDriver) ListRules(fieldID, stage string) (*http.Response, error) {
	url := fmt.Sprintf("%s/v1/fields/%s/rules", d.baseURL, fieldID)
	if stage != "" {
		url += fmt.Sprintf("?stage=%s", stage)
	}
	return d.client.Get(url)
}

func (d *APIDriver) ValidateSubmission(formID string, values map[string]any) (*http.Response, error) {
	reqBody, err := json.Marshal(map[string]any{"values": values})
	if err != nil {
		panic(err)
	}
	return d.client.Post(fmt.Sprintf("%s/v1/forms/%s/submissions/validate", d.baseURL, formID), "application/json", bytes.NewBuffer(reqBody))
}
