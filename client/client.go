package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	cm "github.com/gasparian/lsh-kde-go/common"
	"github.com/gasparian/lsh-kde-go/kde"
)

// New creates new instance of KDEClient
func New(config Config) KDEClient {
	return KDEClient{
		ServerAddress: config.ServerAddress,
		Client:        http.Client{Timeout: time.Duration(config.Timeout) * time.Millisecond},
		Methods: methods{
			HealthCheck: config.ServerAddress + "/",
			Build:       config.ServerAddress + "/build",
			CheckBuild:  config.ServerAddress + "/check-build?id=",
			Estimate:    config.ServerAddress + "/estimate",
			Exact:       config.ServerAddress + "/exact",
			Stats:       config.ServerAddress + "/stats",
		},
	}
}

// MakeRequest performs the http request with specified body
func (client *KDEClient) MakeRequest(method, url string, body io.Reader, target interface{}) error {
	request, err := http.NewRequest(method, url, body)
	if err != nil {
		return err
	}
	request.Header.Set("Content-type", "application/json")

	resp, err := client.Client.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		errResp := cm.ResponseData{}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && len(errResp.Message) > 0 {
			return fmt.Errorf("Response error: %d: %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("Response error: %d", resp.StatusCode)
	}

	if target != nil {
		return json.NewDecoder(resp.Body).Decode(target)
	}
	return nil
}

// HealthCheck returns the list of the server methods
func (client *KDEClient) HealthCheck() (map[string]interface{}, error) {
	target := make(map[string]interface{})
	err := client.MakeRequest("GET", client.Methods.HealthCheck, nil, &target)
	if err != nil {
		return nil, err
	}
	return target, nil
}

// Build sends the dataset to the server and returns the build task id
func (client *KDEClient) Build(request *cm.BuildRequest) (string, error) {
	jsonRequest, err := json.Marshal(request)
	if err != nil {
		return "", err
	}
	target := &cm.ResponseData{}
	err = client.MakeRequest("POST", client.Methods.Build, bytes.NewBuffer(jsonRequest), target)
	if err != nil {
		return "", err
	}
	id, ok := target.Results.(string)
	if !ok {
		return "", errors.New("Build: can't cast response to the string type")
	}
	return id, nil
}

// CheckBuildStatus returns the status of the build task and its message
func (client *KDEClient) CheckBuildStatus(id string) (int, string, error) {
	target := &cm.ResponseData{}
	err := client.MakeRequest("GET", client.Methods.CheckBuild+url.QueryEscape(id), nil, target)
	if err != nil {
		return cm.BuildStatusUnknown, "", err
	}
	if target.Results == nil {
		return cm.BuildStatusUnknown, target.Message, nil
	}
	status, ok := target.Results.(float64)
	if !ok {
		return cm.BuildStatusUnknown, "", errors.New("CheckBuildStatus: can't cast response to the number type")
	}
	return int(status), target.Message, nil
}

func (client *KDEClient) density(method string, vec []float64) (float64, error) {
	jsonRequest, err := json.Marshal(&cm.RequestData{Vec: vec})
	if err != nil {
		return 0, err
	}
	target := &cm.ResponseData{}
	err = client.MakeRequest("POST", method, bytes.NewBuffer(jsonRequest), target)
	if err != nil {
		return 0, err
	}
	density, ok := target.Results.(float64)
	if !ok {
		return 0, errors.New("can't cast response to the float64 type")
	}
	return density, nil
}

// Estimate returns the approximate density of the query point
func (client *KDEClient) Estimate(vec []float64) (float64, error) {
	return client.density(client.Methods.Estimate, vec)
}

// Exact returns the exact density of the query point computed on the server
func (client *KDEClient) Exact(vec []float64) (float64, error) {
	return client.density(client.Methods.Exact, vec)
}

// Stats returns stats of the estimator currently served
func (client *KDEClient) Stats() (*kde.Stats, error) {
	target := &statsResponse{}
	err := client.MakeRequest("GET", client.Methods.Stats, nil, target)
	if err != nil {
		return nil, err
	}
	if target.Results == nil {
		return nil, errors.New("Stats: empty response")
	}
	return target.Results, nil
}
