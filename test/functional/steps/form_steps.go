package steps

import (
	"net/http"
)

func (fc *FeatureContext) iCreateANewFormTitled(title string) error {
	resp, err := fc.apiDriver.CreateForm(title)
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) aFormExistsTitled(title string) error {
	resp, err := fc.apiDriver.CreateForm(title)
	fc.require.NoError(err)
	fc.require.Equal(http.StatusCreated, resp.StatusCode)

	var data map[string]any
	err = fc.decodeBody(resp.Body, &data)
	fc.require.NoError(err)
	fc.formID = data["id"].(string)
	return nil
}

func (fc *FeatureContext) iGetTheFormByItsID() error {
	resp, err := fc.apiDriver.GetForm(fc.formID)
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) theResponseShouldContainTheFormDetails() error {
	var data map[string]any
	err := fc.decodeBody(fc.response.Body, &data)
	fc.require.NoError(err)
	fc.require.NotEmpty(data["id"])
	fc.formID = data["id"].(string)
	fc.responseData = data
	return nil
}

func (fc *FeatureContext) theResponseShouldContainTheFormWithTitle(title string) error {
	var data map[string]any
	err := fc.decodeBody(fc.response.Body, &data)
	fc.require.NoError(err)
	fc.require.Equal(title, data["title"])
	return nil
}
