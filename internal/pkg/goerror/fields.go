package goerror

import "sort"

// fieldOrder ranks the registration fields the way the form lays them out.
var fieldOrder = map[string]int{
	"username":         0,
	"contact":          1,
	"password":         2,
	"confirm_password": 3,
}

func firstField(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		ri, iok := fieldOrder[keys[i]]
		rj, jok := fieldOrder[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})

	return fields[keys[0]]
}
