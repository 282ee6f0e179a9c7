// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"reflect"

	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"

	"github.com/bitmark-inc/ledgerclient/fault"
)

// ParseConfigurationFile - execute a Lua file and map the table it
// returns onto config, which must point to a struct whose fields
// carry gluamapper tags
//
// fields absent from the table keep their values so config can be
// pre-filled with defaults
func ParseConfigurationFile(fileName string, config interface{}, variables map[string]string) error {
	rv := reflect.ValueOf(config)
	if reflect.Ptr != rv.Kind() || rv.IsNil() || reflect.Struct != rv.Elem().Kind() {
		return fault.ErrInvalidStructPointer
	}

	L := lua.NewState()
	defer L.Close()

	L.OpenLibs()

	// arg[0] = config file, arg.NAME = value
	arg := &lua.LTable{}
	arg.Insert(0, lua.LString(fileName))
	for name, value := range variables {
		arg.RawSetString(name, lua.LString(value))
	}
	L.SetGlobal("arg", arg)

	if err := L.DoFile(fileName); nil != err {
		return err
	}

	table, ok := L.Get(L.GetTop()).(*lua.LTable)
	if !ok {
		return fault.ErrInvalidConfiguration
	}

	mapper := gluamapper.Mapper{
		Option: gluamapper.Option{
			NameFunc: func(s string) string {
				return s
			},
			TagName: "gluamapper",
		},
	}
	return mapper.Map(table, config)
}
