package domain

import "github.com/bwmarrin/discordgo"

// BindingRepository persists emote to role bindings.
type BindingRepository interface {
	// Bind stores b and returns it with its id. It fails with
	// ErrAlreadyBound if the emote is bound.
	Bind(b Binding) (Binding, error)
	// Unbind removes the binding of an emote key and returns it. It fails
	// with ErrNotBound if there is none.
	Unbind(key string) (Binding, error)
	// List returns every binding in creation order.
	List() []Binding
	// Match returns the binding triggered by a reaction emoji.
	Match(emoji *discordgo.Emoji) (Binding, bool)
}
