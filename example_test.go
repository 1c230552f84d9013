package protoweave_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/protoweave/protoweave"
	"github.com/protoweave/protoweave/resolver"
)

const eventProto = `syntax = "proto3";

package events.v1;

enum Level {
  LEVEL_UNSPECIFIED = 0;
  INFO = 1;
  ERROR = 2;
}

message Event {
  string name = 1;
  int64 count = 2;
  Level level = 3;
}
`

func Example() {
	p, err := protoweave.New(protoweave.WithProvider(resolver.MapProvider{
		"events/v1/event.proto": eventProto,
	}))
	if err != nil {
		log.Fatal(err)
	}
	if _, err := p.LoadFile(context.Background(), "events/v1/event.proto"); err != nil {
		log.Fatal(err)
	}

	data, err := p.Marshal(map[string]any{
		"name":  "deploy",
		"count": 3,
		"level": "INFO",
	}, "events.v1.Event")
	if err != nil {
		log.Fatal(err)
	}

	fields, err := p.Unmarshal(data, "Event")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(fields["name"], fields["count"], fields["level"])
	// Output: deploy 3 INFO
}

func ExampleProtoweave_Parse() {
	p, err := protoweave.New()
	if err != nil {
		log.Fatal(err)
	}
	file, err := p.Parse(strings.NewReader(eventProto), "event.proto")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(file.Package, len(file.Messages), len(file.Enums))
	// Output: events.v1 1 1
}
