package store

import "maps"

// Reducer computes the next state from the previous state and an action.
type Reducer func(State, Action) State

// Reduce is the default reducer.
func Reduce(s State, a Action) State {
	switch a.Type {
	case AuthLoad:
		s.Auth.Loading = true
	case AuthLoadSuccess:
		s.Auth = AuthState{Loaded: true, User: a.User}
	case AuthLoadFail:
		s.Auth = AuthState{Loaded: false, Error: a.Error}
	case AuthLogin:
		s.Auth = AuthState{Loaded: true, User: a.User}
	case AuthLogout:
		s.Auth = AuthState{Loaded: true}

	case InfoLoad:
		s.Info.Loading = true
	case InfoLoadSuccess:
		s.Info = InfoState{Loaded: true, Data: a.Info}
	case InfoLoadFail:
		s.Info = InfoState{Error: a.Error}

	case DataLoad:
		s.Data = withSlot(s.Data, a.Key, func(sl Slot) Slot {
			sl.Loading = true
			return sl
		})
	case DataLoadSuccess:
		s.Data = withSlot(s.Data, a.Key, func(Slot) Slot {
			return Slot{Loaded: true, Value: a.Value}
		})
	case DataLoadFail:
		s.Data = withSlot(s.Data, a.Key, func(Slot) Slot {
			return Slot{Error: a.Error}
		})
	}
	return s
}

// withSlot returns a copy of data with the slot at key replaced by fn's result.
func withSlot(data map[string]Slot, key string, fn func(Slot) Slot) map[string]Slot {
	out := maps.Clone(data)
	if out == nil {
		out = make(map[string]Slot, 1)
	}
	out[key] = fn(out[key])
	return out
}
