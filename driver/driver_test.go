// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package driver_test

import (
	"errors"
	"log"
	"testing"

	"github.com/gviegas/geom/driver"
	_ "github.com/gviegas/geom/driver/mem"
)

var (
	drv driver.Driver
	gpu driver.GPU
)

func init() {
	for _, d := range driver.Drivers() {
		if d.Name() == "mem" {
			drv = d
			break
		}
	}
	if drv == nil {
		log.Fatal("driver.Drivers(): driver not found")
	}
	var err error
	gpu, err = drv.Open()
	if err != nil {
		log.Fatal(err)
	}
}

func TestDrivers(t *testing.T) {
	drivers := driver.Drivers()
	for i := range drivers {
		name := drivers[i].Name()
		for j := 0; j < i; j++ {
			if name == drivers[j].Name() {
				t.Error("driver.Drivers: Driver.Name is not unique")
			}
		}
	}
	drivers2 := driver.Drivers()
	if len(drivers) != len(drivers2) {
		t.Error("driver.Drivers: length mismatch")
	} else {
		for i := range drivers {
			if drivers[i].Name() != drivers2[i].Name() {
				t.Error("driver.Drivers: Driver.Name mismatch")
			}
		}
	}
}

func TestDriverName(t *testing.T) {
	name := drv.Name()
	if name == "" {
		t.Error("Driver.Name: name is empty")
	}
	drv.Close()
	if drv.Name() != name {
		t.Error("Driver.Name: unexpected name after call to Close")
	}
	var err error
	gpu, err = drv.Open()
	if err != nil {
		t.Fatal("Failed to re-Open drv - cannot continue")
	}
	if drv.Name() != name {
		t.Error("Driver.Name: unexpected name after call to Open")
	}
}

func TestOpen(t *testing.T) {
	g, err := driver.Open("mem")
	if err != nil {
		t.Fatalf("driver.Open: unexpected error %v", err)
	}
	if g.Driver().Name() != "mem" {
		t.Fatalf("driver.Open: GPU.Driver.Name\nhave %q\nwant \"mem\"", g.Driver().Name())
	}
	if _, err := driver.Open("no such driver"); !errors.Is(err, driver.ErrNoDriver) {
		t.Fatalf("driver.Open: unknown name\nhave %v\nwant %v", err, driver.ErrNoDriver)
	}
	if g, err := driver.Open(""); err != nil || g == nil {
		t.Fatalf("driver.Open: empty name\nhave %v, %v\nwant GPU, nil", g, err)
	}
}
