// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"
	"github.com/gogama/restx/request"
	"github.com/olekukonko/tablewriter"
)

func (s *settings) print(stdout, stderr io.Writer, resp *request.Response) error {
	if s.include {
		fmt.Fprintln(stdout, resp.Status)
		writeHeaderTable(stdout, resp)
		fmt.Fprintln(stdout)
		fmt.Fprintln(stderr, summary(resp))
	}

	body := resp.Body
	if s.pretty {
		body = indentJSON(body)
	}
	if _, err := stdout.Write(body); err != nil {
		return err
	}
	if len(body) > 0 && body[len(body)-1] != '\n' {
		fmt.Fprintln(stdout)
	}
	return nil
}

func writeHeaderTable(w io.Writer, resp *request.Response) {
	keys := make([]string, 0, len(resp.Header))
	for k := range resp.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Header", "Value"})
	table.SetAutoWrapText(false)
	for _, k := range keys {
		for _, v := range resp.Header[k] {
			table.Append([]string{k, v})
		}
	}
	table.Render()
}

// summary describes the size and duration of resp in human terms, e.g.
// "200 OK, 1.2 kB in 35ms".
func summary(resp *request.Response) string {
	return fmt.Sprintf("%s, %s in %s", resp.Status, humanize.Bytes(uint64(len(resp.Body))), resp.Duration())
}

// indentJSON returns b indented if it is a JSON document, and otherwise
// b unchanged.
func indentJSON(b []byte) []byte {
	var v interface{}
	if len(b) == 0 || sonic.Unmarshal(b, &v) != nil {
		return b
	}
	indented, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return b
	}
	return indented
}
