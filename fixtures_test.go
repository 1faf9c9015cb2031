package glquad_test

import (
	"log/slog"
	"testing/fstest"
)

const vertexSource = `#version 330 core

layout(location = 0) in vec4 position;

void main()
{
	gl_Position = position;
}
`

const fragmentSource = `#version 330 core

layout(location = 0) out vec4 color;

uniform vec4 u_Color;

void main()
{
	color = u_Color;
}
`

// brokenFragment is missing a closing parenthesis and brace.
const brokenFragment = `#version 330 core

layout(location = 0) out vec4 color;

void main()
{
	color = vec4(1.0, 0.0, 0.0, 1.0;
`

// unlinkableFragment reads a varying the vertex stage never writes, so it
// compiles but does not link with vertexSource.
const unlinkableFragment = `#version 330 core

in vec2 v_TexCoord;
layout(location = 0) out vec4 color;

uniform vec4 u_Color;

void main()
{
	color = u_Color * v_TexCoord.x;
}
`

// twoUniformFragment declares u_Tint before u_Color.
const twoUniformFragment = `#version 330 core

layout(location = 0) out vec4 color;

uniform vec4 u_Tint;
uniform vec4 u_Color;

void main()
{
	color = u_Color * u_Tint;
}
`

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func shaderFS(vertex, fragment string) fstest.MapFS {
	return fstest.MapFS{
		"res/shaders/Basic.vertex":   {Data: []byte(vertex)},
		"res/shaders/Basic.fragment": {Data: []byte(fragment)},
	}
}
