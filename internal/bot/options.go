package bot

import "github.com/bwmarrin/discordgo"

// Options maps command option names to their values. Sub-command and group
// names are present with a nil value and their options are merged in.
type Options map[string]any

// OptionsFrom flattens the options of a command invocation. Other
// interactions yield empty options.
func OptionsFrom(i *discordgo.InteractionCreate) Options {
	opts := Options{}
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return opts
	}

	data, ok := i.Data.(discordgo.ApplicationCommandInteractionData)
	if !ok {
		return opts
	}
	opts.add(data.Options)
	return opts
}

func (o Options) add(options []*discordgo.ApplicationCommandInteractionDataOption) {
	for _, opt := range options {
		o[opt.Name] = opt.Value
		if len(opt.Options) > 0 {
			o.add(opt.Options)
		}
	}
}

// Has reports whether the option or sub-command was given.
func (o Options) Has(name string) bool {
	_, ok := o[name]
	return ok
}

// String returns a string option. Mentionable options are ids.
func (o Options) String(name string) (string, bool) {
	s, ok := o[name].(string)
	return s, ok
}
