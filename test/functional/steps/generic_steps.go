package steps

import (
	"time"
)

func (fc *FeatureContext) waitForDuration(duration string) error {
	d, err := time.ParseDuration(duration)
	if err != nil {
		return err
	}
	time.Sleep(d)
	return nil
}

func (fc *FeatureContext) theResponseStatusCodeShouldBe(statusCode int) error {
	fc.require.NotNil(fc.response)
	fc.require.Equal(statusCode, fc.response.StatusCode)
	return nil
}
