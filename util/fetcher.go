// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
)

// FetchJSON - fetch a JSON response from an HTTP request and decode
// it
func FetchJSON(ctx context.Context, client *http.Client, url string, reply interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if nil != err {
		return err
	}
	return doJSON(client, request, reply)
}

// PostJSON - post a JSON encoded request and decode the JSON reply
//
// numbers in the reply decode as json.Number when the target is an
// interface{}
func PostJSON(ctx context.Context, client *http.Client, url string, body interface{}, reply interface{}) error {
	buffer, err := json.Marshal(body)
	if nil != err {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buffer))
	if nil != err {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	return doJSON(client, request, reply)
}

func doJSON(client *http.Client, request *http.Request, reply interface{}) error {
	response, err := client.Do(request)
	if nil != err {
		return err
	}
	defer response.Body.Close()
	body, err := ioutil.ReadAll(io.LimitReader(response.Body, maximumBody))
	if nil != err {
		return err
	}

	if http.StatusOK != response.StatusCode {
		return fmt.Errorf("status: %d %q on: %q", response.StatusCode, response.Status, request.URL)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	return decoder.Decode(reply)
}

const maximumBody = 8 << 20
